package devenv

// AnticaptchaTestConfig is read from <dev_state>/anticaptcha.json5 by the
// tests that talk to the real solving service.
type AnticaptchaTestConfig struct {
	ApiKey string `json:"api_key"`
}

// ProbateTestConfig is read from <dev_state>/probate.json5 by the tests
// that drive a real browser against the live portal.
type ProbateTestConfig struct {
	ApiKey string `json:"api_key"`
	// YYYY-MM-DD
	Date     string `json:"date"`
	Headless bool   `json:"headless"`
}
