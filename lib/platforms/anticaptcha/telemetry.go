package anticaptcha

import (
	"probate-records/lib/restyutil"
	"probate-records/lib/telemetry"
)

var tracer = telemetry.Tracer("probate.lib.platforms.anticaptcha")
var meter = telemetry.Meter("probate.lib.platforms.anticaptcha")

var solvedCounter, _ = meter.Int64Counter("anticaptcha.solved")
var failedCounter, _ = meter.Int64Counter("anticaptcha.failed")

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput sets where clients created afterwards dump their
// http exchanges when debug logging is on.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
