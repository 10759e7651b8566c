// main holds the entry logic for the sitepulse CLI.
package main

import (
	"github.com/sitepulse/sitepulse/cmd"
	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/internal/iostore"
)

func main() {
	err := cmd.Execute()

	// Flush profiles and close store connections before deciding exit status.
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Cannot stop profiling", profErr)
	}
	iostore.CloseStores()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
