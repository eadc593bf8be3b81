package main

import (
	"fmt"
	"strconv"

	"playground/cmd/playground/ui"
	"playground/internal/users"

	"github.com/spf13/cobra"
)

// usersCmd prints the catalog the simulated fetch returns.
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Print the users a successful load returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl := ui.NewTable("Users", "Name", "ID")
		tbl.RightAlign[1] = true
		for _, u := range users.Catalog() {
			tbl.AddRow(u.Name, strconv.FormatInt(u.ID, 10))
		}
		fmt.Fprint(cmd.OutOrStdout(), tbl.View(ui.NewStyles(ui.DetectTheme(cfg.UI.DarkMode))))
		return nil
	},
}
