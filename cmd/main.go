// @title       Activity monitor backend
// @version     1.0
// @description Event store, live status, daily summary and push channel for the activity dashboard.
// @BasePath    /
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
