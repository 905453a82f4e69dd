// Command cardinal interrogates a smart card through a PCSC reader: it
// selects the EMV Payment System Environment or walks a FeliCa card's
// system/service tree, depending on what the ATR reports, and prints the
// result as tables or JSON.
package main

import "github.com/gregLibert/smart-card/cmd/cardinal"

func main() {
	cardinal.Execute()
}
