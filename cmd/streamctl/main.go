package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "streamctl:", err)
		os.Exit(1)
	}
}
