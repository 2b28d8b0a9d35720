package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	devenv "probate-records/dev/env"
)

const anticaptchaTemplate = `{
    // the key of an anti-captcha.com account, used by the solving service tests
    api_key: "",
}
`

const probateTemplate = `{
    api_key: "",
    // a date that is known to have cases, YYYY-MM-DD
    date: "2024-01-08",
    headless: true,
}
`

const telemetryTemplate = `{
    otlp: {
        traces: { http_endpoint: "http://localhost:4318/v1/traces" },
        metrics: { http_endpoint: "http://localhost:4318/v1/metrics" },
    },
}
`

func writeTemplate(path, contents string) error {
	path, err := devenv.ResolvePath(path)
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("config already created at", path)
		return nil
	}

	fmt.Println("creating config template at", path)
	return os.WriteFile(path, []byte(contents), 0600)
}

func CreateConfigTemplates() error {
	err := writeTemplate(filepath.Join("<dev_state>", "anticaptcha.json5"), anticaptchaTemplate)
	if err != nil {
		return err
	}
	err = writeTemplate(filepath.Join("<dev_state>", "probate.json5"), probateTemplate)
	if err != nil {
		return err
	}
	// telemetry.json5 is found by walking up from the cwd, so it lives in
	// the repository root instead of dev/.state
	return writeTemplate("telemetry.local.json5", telemetryTemplate)
}

func PrintConfigLocations() {
	slog.Info("tests that talk to the live portal or the solving service read their config from dev/.state, they are skipped until the templates there are filled in.")
}
