package main

import (
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/internal/app"
	"deedles.dev/playland/protocol"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

var globalsCmd = &cobra.Command{
	Use:   "globals",
	Short: "List the globals advertised by the compositor",
	Long: `List every global the compositor advertises, along with the version
playland would bind it at. Interfaces playland does not use are marked
with a dash.`,
	Args: cobra.NoArgs,
	RunE: runGlobals,
}

func runGlobals(cmd *cobra.Command, args []string) error {
	protocols, err := protocol.Builtin()
	if err != nil {
		return fmt.Errorf("load protocols: %w", err)
	}

	display, err := wl.Dial()
	if err != nil {
		return err
	}
	defer display.Close()

	registry := display.GetRegistry()
	err = display.RoundTrip()
	if err != nil {
		return fmt.Errorf("round trip: %w", err)
	}

	globals := registry.Globals()
	supported := app.Supported()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINTERFACE\tVERSION\tBIND\tKNOWN")
	names := maps.Keys(globals)
	slices.Sort(names)
	for _, name := range names {
		global := globals[name]

		bind := "-"
		if max, ok := supported[global.Interface]; ok {
			bind = strconv.FormatUint(uint64(min(global.Version, max)), 10)
		}

		known := "-"
		if inter, ok := protocol.FindInterface(protocols, global.Interface); ok {
			known = strconv.Itoa(inter.Version)
		}

		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", name, global.Interface, global.Version, bind, known)
	}

	log.WithField("count", len(globals)).Debug("listed globals")
	return w.Flush()
}
