// main is the entry point of the dqscore CLI.
package main

import (
	"github.com/huangsam/dqscore/cmd"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/internal/history"
)

func main() {
	cmd.SetHistoryManager(history.Manager)

	err := cmd.Execute()
	history.CloseStores()
	if err != nil {
		contract.LogFatal("dqscore failed", err)
	}
}
