package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/crops/config"
	"github.com/wippyai/crops/host"
	"github.com/wippyai/crops/protocol"
	"github.com/wippyai/crops/schema"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to TOML config file")
		interactive = flag.Bool("i", false, "Interactive console with TUI")
	)
	flag.Usage = usage
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	protocol.SetLogger(logger)
	host.SetLogger(logger)

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "header":
		fmt.Print(schema.Header())
	case "describe":
		describe()
	case "demo":
		if err := demo(context.Background(), cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: crops [-config file.toml] header    (C prototypes of every export)")
	fmt.Fprintln(os.Stderr, "       crops [-config file.toml] describe  (WIT shape of each entity)")
	fmt.Fprintln(os.Stderr, "       crops [-config file.toml] demo      (run the sample scenarios in wasm)")
	fmt.Fprintln(os.Stderr, "       crops [-config file.toml] -i        (interactive mode)")
}

func describe() {
	for _, td := range schema.Entities() {
		l := schema.LayoutOf(td)
		fmt.Printf("// size %d, align %d\n", l.Size, l.Align)
		fmt.Print(schema.Render(td))
		fmt.Println()
	}
}

// step is one scripted boundary call. Arguments starting with '$' name the
// handle returned by an earlier step.
type step struct {
	bind string
	name string
	args []string
}

var scenarios = []struct {
	title string
	steps []step
}{
	{
		title: "color",
		steps: []step{
			{bind: "c", name: "color_from_red"},
			{name: "color_as_other", args: []string{"$c", "teal"}},
			{name: "color_debug", args: []string{"$c"}},
			{name: "color_get_other", args: []string{"$c"}},
			{name: "color_as_blue", args: []string{"$c"}},
			{name: "color_get_other", args: []string{"$c"}},
			{name: "color_tag", args: []string{"$c"}},
			{name: "color_debug", args: []string{"$c"}},
			{name: "color_free", args: []string{"$c"}},
		},
	},
	{
		title: "brush",
		steps: []step{
			{bind: "b", name: "brush_default"},
			{name: "brush_with_weight", args: []string{"$b", "7"}},
			{name: "brush_get_weight", args: []string{"$b"}},
			{name: "brush_with_name", args: []string{"$b", "round"}},
			{name: "brush_get_name", args: []string{"$b", "3"}},
			{name: "brush_get_name", args: []string{"$b", "16"}},
			{name: "brush_push_tags", args: []string{"$b", "soft"}},
			{name: "brush_get_size", args: []string{"$b"}},
			{name: "brush_replace_size", args: []string{"$b", "12"}},
			{bind: "k", name: "brush_clone", args: []string{"$b"}},
			{name: "brush_debug", args: []string{"$k"}},
			{name: "brush_free", args: []string{"$k"}},
			{name: "brush_free", args: []string{"$b"}},
		},
	},
}

func demo(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	s, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	handles := make(map[string]string)
	for _, sc := range scenarios {
		fmt.Printf("== %s\n", sc.title)
		for _, st := range sc.steps {
			args := make([]string, len(st.args))
			for i, a := range st.args {
				if len(a) > 1 && a[0] == '$' {
					a = handles[a[1:]]
				}
				args[i] = a
			}
			out, err := s.invoke(ctx, st.name, args)
			if err != nil {
				return fmt.Errorf("%s: %w", st.name, err)
			}
			fmt.Printf("%s %v -> %s\n", st.name, args, out)
			if st.bind != "" {
				handles[st.bind] = strconv.FormatUint(uint64(s.last), 10)
			}
		}
	}

	buffers, bytes := s.host.Ledger().Live()
	fmt.Printf("live handles: %d, owned buffers: %d (%d bytes)\n", s.host.Tracker().Total(), buffers, bytes)
	logger.Debug("demo finished", zap.Int("table", s.host.Table().Len()))
	return nil
}
