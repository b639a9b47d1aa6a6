package cmd

import (
	"bytes"

	"github.com/markusressel/karlson/cmd/global"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/tomlazar/table"
)

func tableConfig() *table.Config {
	return &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	}
}

func printTable(tab table.Table) {
	if tab.Rows == nil {
		return
	}
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, tableConfig())
	if err != nil {
		ui.Fatal("Error printing table: %v", err)
	}
	ui.Printfln("%s", buf.String())
}
