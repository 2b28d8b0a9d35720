package probate

import "probate-records/lib/telemetry"

var tracer = telemetry.Tracer("probate.lib.scrapers.probate")
var meter = telemetry.Meter("probate.lib.scrapers.probate")

var casesCounter, _ = meter.Int64Counter("probate.cases_scraped")
