package main

import (
	"highwatch/cmd/highwatch/commands"
	"highwatch/internal/components/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
