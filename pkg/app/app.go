package app

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	morseclient "github.com/birdayz/morse/pkg/client"
	"github.com/birdayz/morse/pkg/config"
	"github.com/birdayz/morse/pkg/menu"
)

// App holds all shared mutable state for the CLI. It is created once per
// invocation and threaded into every command package.
type App struct {
	OutWriter    io.Writer
	ErrWriter    io.Writer
	InReader     io.Reader
	ColorableOut io.Writer

	Cfg config.Config
	// Set from persistent flags.
	CfgFile     string
	ClusterFlag string
	BrokersFlag []string
	Verbose     bool

	Logger *zap.Logger
	// Formatter for --output json.
	JSONFmt *prettyjson.Formatter

	NoHeaderFlag bool
}

// New creates an App writing to the process's standard streams.
func New() *App {
	return &App{
		OutWriter:    os.Stdout,
		ErrWriter:    os.Stderr,
		InReader:     os.Stdin,
		ColorableOut: colorable.NewColorableStdout(),
		Logger:       zap.NewNop(),
		JSONFmt:      prettyjson.NewFormatter(),
	}
}

// LoadConfig reads --config, or the default config file.
func (a *App) LoadConfig() error {
	cfg, err := config.Load(a.CfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.Cfg = cfg
	a.Logger.Debug("loaded config", zap.String(FieldPath, cfg.Path()))
	return nil
}

// Cluster resolves the cluster the relay talks to: --cluster, else the
// current cluster, else localhost:9092. --brokers replaces its brokers.
func (a *App) Cluster() (*config.Cluster, error) {
	var cl *config.Cluster
	switch {
	case a.ClusterFlag != "":
		if cl = a.Cfg.Lookup(a.ClusterFlag); cl == nil {
			return nil, fmt.Errorf("cluster with name %v not found", a.ClusterFlag)
		}
	case a.Cfg.ActiveCluster() != nil:
		cl = a.Cfg.ActiveCluster()
	default:
		cl = &config.Cluster{Name: "default", Brokers: []string{"localhost:9092"}}
	}
	if len(a.BrokersFlag) > 0 {
		cl.Brokers = a.BrokersFlag
	}
	return cl, nil
}

// NewKafkaClient creates a franz-go based client for Cluster.
func (a *App) NewKafkaClient(opts ...kgo.Opt) (*morseclient.Client, error) {
	cluster, err := a.Cluster()
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("connecting", zap.String("cluster", cluster.Name), zap.Strings("brokers", cluster.Brokers))
	cl, err := morseclient.New(cluster, a.Logger.Named("client"), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create client: %w", err)
	}
	return cl, nil
}

// Prompter returns the promptui selector on a terminal, and the line
// prompter when plain is set, the config asks for it, or stdin is not a
// terminal.
func (a *App) Prompter(title string, plain bool) menu.Prompter {
	if plain || a.Cfg.PlainMenu || !a.stdinIsTerminal() {
		l := menu.NewLines(a.InReader, a.OutWriter)
		l.Title = title
		return l
	}
	return menu.PromptUI{}
}

func (a *App) stdinIsTerminal() bool {
	in, ok := a.InReader.(*os.File)
	if !ok || in != os.Stdin {
		return false
	}
	return isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd())
}

// AddNoHeadersFlag installs --no-headers on cmd.
func (a *App) AddNoHeadersFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&a.NoHeaderFlag, "no-headers", false, "Hide table headers")
}

// NewTabWriter creates the tabwriter used for CLI tables.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 6, 4, 3, ' ', 0)
}
