package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"clitter/config"
	"clitter/internal/cache"
	"clitter/internal/logger"
	"clitter/internal/models"
	"clitter/internal/prompt"
	"clitter/internal/render"
	"clitter/internal/twitter"
)

// app carries what every command needs. Settings travel in cfg; nothing
// reads configuration from package state.
type app struct {
	cfg     *config.Config
	printer *render.Printer
	term    *prompt.Terminal
}

func newApp(out io.Writer) (*app, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		return nil, err
	}

	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	term := prompt.NewTerminal()
	cfg.SetPrompter(term)

	dateFormat, err := cfg.Get("twitter.timeline_date_format")
	if err != nil {
		return nil, err
	}

	color := false
	if f, ok := out.(*os.File); ok {
		color = render.ColorEnabled(f)
	}

	return &app{
		cfg:  cfg,
		term: term,
		printer: &render.Printer{
			Out:        out,
			Renderer:   render.New(out, color),
			Quiet:      quiet,
			ShowIDs:    showIDs,
			DateFormat: dateFormat,
		},
	}, nil
}

// client builds the API client, prompting for credentials on first use.
func (a *app) client() (*twitter.Client, error) {
	username, err := a.cfg.Get("twitter.username")
	if err != nil {
		return nil, err
	}
	password, err := a.cfg.Get("twitter.password")
	if err != nil {
		return nil, err
	}
	baseURL, err := a.cfg.Get("twitter.api_url")
	if err != nil {
		return nil, err
	}
	timeout, err := a.cfg.Duration("http.timeout")
	if err != nil {
		return nil, err
	}
	retries, err := a.cfg.Int("http.retries")
	if err != nil {
		return nil, err
	}
	rps, err := a.cfg.Float("http.requests_per_second")
	if err != nil {
		return nil, err
	}

	logger.Debug("api_client", "url", baseURL, "username", username, "password", prompt.MaskSecret(password))
	return twitter.New(twitter.Options{
		BaseURL:           baseURL,
		Username:          username,
		Password:          password,
		Timeout:           timeout,
		Retries:           uint64(max(retries, 0)),
		RequestsPerSecond: rps,
		DumpHTTP:          dumpHTTP,
	}), nil
}

func (a *app) cache() (*cache.TimelineCache, error) {
	path, err := a.cfg.Get("cache.path")
	if err != nil {
		return nil, err
	}
	return cache.New(config.ExpandHome(path)), nil
}

// report shows a transport or shape failure and converts it into
// errReported. Other errors are returned unchanged.
func (a *app) report(err error) error {
	var se *models.ShapeError
	if errors.As(err, &se) {
		a.printer.UnexpectedReply(se.Raw)
		return errReported
	}
	var te *twitter.TransportError
	if errors.As(err, &te) || errors.Is(err, twitter.ErrNoCredentials) {
		a.printer.Error("%v", err)
		return errReported
	}
	return err
}
