package main

import (
	"fmt"
	"os"

	"github.com/jpignata/garmin-training-plan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
