package main

import (
	"fmt"
	"os"
)

const (
	AppName    = "Image Finder"
	AppID      = "com.imagefinder.desktop"
	AppVersion = "1.0.0"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
