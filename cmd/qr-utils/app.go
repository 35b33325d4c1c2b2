package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/prasetyowira/qr-utils/config"
	"github.com/prasetyowira/qr-utils/constant"
	"github.com/prasetyowira/qr-utils/domain/generator"
	"github.com/prasetyowira/qr-utils/domain/qrerr"
	"github.com/prasetyowira/qr-utils/infrastructure/cache"
	"github.com/prasetyowira/qr-utils/infrastructure/db"
	appLogger "github.com/prasetyowira/qr-utils/infrastructure/logger"
	"github.com/prasetyowira/qr-utils/infrastructure/qrcode"
	"github.com/prasetyowira/qr-utils/infrastructure/storage"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	output          string
	logo            string
	logoSize        string
	configDir       string
	version         int
	errorCorrection string
	moduleSize      int
	border          int
	fillColor       string
	backColor       string
}

// app wires configuration, storage and the generator for one invocation.
type app struct {
	flags  globalFlags
	stdout io.Writer
	stderr io.Writer

	cfg  *config.Config
	repo *db.SQLiteRepository
	lru  *cache.NamespaceLRU[[]byte]
	svc  *generator.Service
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	defer a.close()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "qr-utils",
		Short: "Generate QR codes for URLs, contacts, WiFi networks and more",
		Example: `  qr-utils url --url "https://example.com" --output qr_url.png
  qr-utils wifi --ssid "MyNetwork" --password "MyPassword" --security WPA
  qr-utils vcard --first-name "John" --last-name "Doe" --email "john@example.com"
  qr-utils url --url "https://example.com" --logo logo.png --output qr.png`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.output, "output", "o", "", "output file path (extension selects png, jpg or bmp)")
	pf.StringVarP(&a.flags.logo, "logo", "l", "", "logo image to embed in the QR code center")
	pf.StringVar(&a.flags.logoSize, "logo-size", "", "logo size as N or WxH pixels (default: a quarter of the QR image)")
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: ~/.qr-utils)")
	pf.IntVar(&a.flags.version, "qr-version", 0, "minimum QR version (1-40)")
	pf.StringVar(&a.flags.errorCorrection, "error-correction", "", "error correction level (L, M, Q, H)")
	pf.IntVar(&a.flags.moduleSize, "module-size", 0, "pixels per module")
	pf.IntVar(&a.flags.border, "border", 0, "quiet zone width in modules")
	pf.StringVar(&a.flags.fillColor, "fill-color", "", "module colour (name, #rgb or #rrggbb)")
	pf.StringVar(&a.flags.backColor, "back-color", "", "background colour (name, #rgb or #rrggbb)")

	for _, cmd := range a.kindCommands() {
		root.AddCommand(cmd)
	}
	root.AddCommand(a.configCommand(), a.historyCommand(), a.serveCommand())

	return root
}

// loadConfig reads the config directory and starts the logger.
func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.Load(a.flags.configDir)
	if err != nil {
		return err
	}
	if err := appLogger.Initialize(cfg.LoggerOptions()); err != nil {
		return qrerr.Resource(constant.CtxConfig, cfg.LogDir(), err)
	}
	a.cfg = cfg

	if cfg.Created() {
		appLogger.Info(constant.MsgDefaultConfigWritten, appLogger.LoggerInfo{
			ContextFunction: constant.CtxConfig,
			Data: map[string]interface{}{
				constant.DataPath: cfg.Path(),
			},
		})
	}
	appLogger.Debug(constant.MsgApplicationStarting, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataConfigDir: cfg.Dir(),
		},
	})
	return nil
}

// service builds the generator once. A history database that cannot be
// opened only disables history.
func (a *app) service() (*generator.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if err := a.loadConfig(); err != nil {
		return nil, err
	}

	var history generator.HistoryRepository
	repo, err := db.NewSQLiteRepository(a.cfg.HistoryPath())
	if err != nil {
		appLogger.Warn(constant.MsgFailedToInitDB, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppDBInit,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataDBPath: a.cfg.HistoryPath(),
			},
		})
	} else {
		a.repo = repo
		history = repo
	}

	a.svc = generator.NewService(qrcode.NewRenderer(), storage.NewFileStore(), history, generator.Options{
		Settings:  a.cfg.QRSettings,
		OutputDir: a.cfg.OutputDir(),
		Format:    a.cfg.Format(),
		Cache:     a.lru,
	})
	return a.svc, nil
}

func (a *app) close() {
	if a.repo != nil {
		_ = a.repo.Close()
	}
	appLogger.Close()
}

// overrides collects the render flags the user actually set.
func (a *app) overrides(cmd *cobra.Command) (qrcode.Overrides, error) {
	var o qrcode.Overrides
	fl := cmd.Flags()

	if fl.Changed("qr-version") {
		v := a.flags.version
		o.Version = &v
	}
	if fl.Changed("error-correction") {
		level, err := qrcode.ParseLevel(a.flags.errorCorrection)
		if err != nil {
			return o, err
		}
		o.ErrorCorrection = &level
	}
	if fl.Changed("module-size") {
		v := a.flags.moduleSize
		o.ModuleSize = &v
	}
	if fl.Changed("border") {
		v := a.flags.border
		o.Border = &v
	}
	if fl.Changed("fill-color") {
		v := a.flags.fillColor
		o.FillColor = &v
	}
	if fl.Changed("back-color") {
		v := a.flags.backColor
		o.BackColor = &v
	}
	return o, nil
}

// parseLogoSize accepts "N" for a square or "WxH".
func parseLogoSize(s string) (*image.Point, error) {
	if s == "" {
		return nil, nil
	}
	w, h, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		h = w
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if err := errors.Join(errW, errH); err != nil || width < 1 || height < 1 {
		return nil, qrerr.Validation("logo-size", "logo size must be N or WxH with positive integers, got %q", s)
	}
	return &image.Point{X: width, Y: height}, nil
}
