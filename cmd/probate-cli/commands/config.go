package commands

import (
	"errors"
	"os"
	"probate-records/lib/configutil"
	"probate-records/lib/platforms/anticaptcha"
	"probate-records/lib/restyutil"
)

type Config struct {
	ApiKey    string `json:"api_key"`
	OutputDir string `json:"output_dir"`
	Headful   bool   `json:"headful"`
	// path to a chrome / chromium binary
	ChromePath string `json:"chrome_path"`
}

var configPath *string

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The configuration file to read defaults from.")
}

// readConfig reads the configuration, a missing file is not an error since
// every value can also be given with flags or prompts.
func readConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

func newSolver(apiKey string) (*anticaptcha.Client, error) {
	if *verbose {
		output, err := restyutil.NewFilesystemOutput("<dev_state>/resty/anticaptcha")
		if err == nil {
			anticaptcha.SetRestyInstrumentOutput(output)
		}
	}
	return anticaptcha.NewClient(anticaptcha.ClientOptions{ApiKey: apiKey})
}
