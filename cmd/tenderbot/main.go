package main

import (
	"tenderbot/cmd/tenderbot/commands"
	"tenderbot/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
