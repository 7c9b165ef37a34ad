package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/pulselane/tunnelsim/internal/config"
	"github.com/pulselane/tunnelsim/internal/export"
	"github.com/pulselane/tunnelsim/internal/scene"
	"github.com/pulselane/tunnelsim/internal/server"
	"github.com/pulselane/tunnelsim/internal/tui"
	"github.com/pulselane/tunnelsim/internal/tunnel"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	preset     string
	// query
	atMin float64
	// timeline
	series     string
	seriesDir  string
	sampleStep float64
	// export
	outPath    string
	format     string
	fromMin    float64
	toMin      float64
	exportStep float64
	// live
	speed     float64
	frameRate int
	// serve
	port int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tunnelsim",
		Short: "tunnel lane-share schedule visualizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, args)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "print the scene state at one instant",
		RunE:  runQuery,
	}
	queryCmd.Flags().Float64Var(&atMin, "at", 0, "absolute minute to query")

	timelineCmd := &cobra.Command{
		Use:   "timeline",
		Short: "plot a series over one full cycle",
		RunE:  runTimeline,
	}
	timelineCmd.Flags().StringVar(&series, "series", "green-width", "series: green-width, red-width, sweep-x, pace-x, vehicles")
	timelineCmd.Flags().StringVar(&seriesDir, "dir", "east", "direction for per-bore series")
	timelineCmd.Flags().Float64Var(&sampleStep, "step", 0.25, "sample step in minutes")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal playback",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&speed, "speed", 0, "playback speed multiplier")
	liveCmd.Flags().IntVar(&frameRate, "fps", 0, "frame rate")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export the scene as svg, csv, or json",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&format, "format", "svg", "output format: svg, csv, json")
	exportCmd.Flags().StringVar(&outPath, "out", "", "output path (default stdout)")
	exportCmd.Flags().Float64Var(&atMin, "at", 0, "absolute minute for svg snapshots")
	exportCmd.Flags().Float64Var(&fromMin, "from", 0, "sample range start (csv, json)")
	exportCmd.Flags().Float64Var(&toMin, "to", 60, "sample range end (csv, json)")
	exportCmd.Flags().Float64Var(&exportStep, "step", 1, "sample step in minutes (csv, json)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the query API over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&port, "port", 8080, "listen port")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write the resolved configuration as yaml",
		RunE:  runConfig,
	}
	configCmd.Flags().StringVar(&outPath, "out", "", "output path (default stdout)")

	rootCmd.AddCommand(queryCmd, timelineCmd, liveCmd, exportCmd, serveCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return cfg, nil
}

func buildSystem() (*scene.System, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	sys, err := scene.New(cfg.Scene)
	if err != nil {
		return nil, nil, err
	}
	return sys, cfg, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	sys, _, err := buildSystem()
	if err != nil {
		return err
	}
	frame, err := sys.At(atMin)
	if err != nil {
		return err
	}

	fmt.Printf("t = %.2f min\n", atMin)
	fmt.Printf("phase east: %s\nphase west: %s\n\n", frame.Phases.East, frame.Phases.West)

	if len(frame.Rectangles) > 0 {
		fmt.Println("zones:")
		for _, r := range frame.Rectangles {
			fmt.Printf("  %s %-5s [%.1f, %.1f]\n", r.Dir, r.Color, r.X, r.X+r.Width)
		}
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tDIR\tLANE\tX\tY\tSTATE")
	for _, v := range frame.Vehicles {
		dir := string(v.Dir)
		if dir == "" {
			dir = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%.1f\t%s\n",
			v.ID, v.Type, dir, v.Lane, v.Pos.X, v.Pos.Y, v.Pos.State)
	}
	return w.Flush()
}

func runTimeline(cmd *cobra.Command, args []string) error {
	sys, _, err := buildSystem()
	if err != nil {
		return err
	}
	if sampleStep <= 0 {
		return fmt.Errorf("step must be positive, got %v", sampleStep)
	}

	dir := tunnel.Direction(seriesDir)
	if dir != tunnel.East && dir != tunnel.West {
		return fmt.Errorf("dir must be east or west, got %q", seriesDir)
	}

	var data []float64
	for t := 0.0; t < tunnel.Period; t += sampleStep {
		v, err := sampleSeries(sys, dir, series, t)
		if err != nil {
			return err
		}
		data = append(data, v)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s (%s), one %v-minute cycle", series, dir, tunnel.Period)),
	)
	fmt.Println(graph)
	return nil
}

func sampleSeries(sys *scene.System, dir tunnel.Direction, name string, t float64) (float64, error) {
	bore := sys.East()
	if dir == tunnel.West {
		bore = sys.West()
	}

	switch name {
	case "green-width", "red-width":
		span := bore.Zones(t)
		if span == nil {
			return 0, nil
		}
		if name == "green-width" {
			return span.GreenEnd - span.GreenStart, nil
		}
		return span.RedEnd - span.RedStart, nil
	case "sweep-x":
		return sys.SweepCar().At(t).X, nil
	case "pace-x":
		return sys.PaceCar().At(t).X, nil
	case "vehicles":
		return float64(len(bore.Vehicles(t))), nil
	default:
		return 0, fmt.Errorf("unknown series %q", name)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	sys, cfg, err := buildSystem()
	if err != nil {
		return err
	}
	if speed <= 0 {
		speed = cfg.Speed
	}
	if frameRate <= 0 {
		frameRate = cfg.FrameRate
	}
	return tui.Run(sys, speed, frameRate)
}

func runExport(cmd *cobra.Command, args []string) error {
	sys, _, err := buildSystem()
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "svg":
		doc, err := export.SceneToSVG(sys, atMin)
		if err != nil {
			return err
		}
		_, err = out.WriteString(doc)
		return err
	case "csv":
		return export.WriteCSV(out, sys, export.Range{From: fromMin, To: toMin, Step: exportStep})
	case "json":
		return export.WriteJSON(out, sys, export.Range{From: fromMin, To: toMin, Step: exportStep})
	default:
		return fmt.Errorf("unknown format %q (want svg, csv, or json)", format)
	}
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outPath != "" {
		return config.Save(outPath, cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	sys, _, err := buildSystem()
	if err != nil {
		return err
	}
	log.Printf("serving on :%d", port)
	return server.New(sys).Run(port)
}
