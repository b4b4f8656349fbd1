package log

// Field names shared by every component
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldQuery        = "query"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldUserAgent    = "user_agent"
	FieldSuccess      = "success"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldSession      = "session"
	FieldSource       = "source"
	FieldBackend      = "backend"
	FieldFallback     = "fallback"
	FieldReason       = "reason"
	FieldMunicipality = "municipality"
	FieldYearStart    = "year_start"
	FieldYearEnd      = "year_end"
	FieldSelected     = "selected"
	FieldRows         = "rows"
	FieldDeforestRows = "deforestation_rows"
	FieldEconomicRows = "economic_rows"
	FieldJoinedRows   = "joined_rows"
	FieldChart        = "chart"
)

// Component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentDataset   = "dataset"
	ComponentSources   = "sources"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentCache     = "cache"
	ComponentCharts    = "charts"
	ComponentExport    = "export"
	ComponentSession   = "session"
	ComponentRateLimit = "rate_limit"
	ComponentBackend   = "backend"
	ComponentTemplate  = "template"
	ComponentImport    = "import"
)

// Operation names
const (
	OpLoad     = "load"
	OpParse    = "parse"
	OpClean    = "clean"
	OpJoin     = "join"
	OpFilter   = "filter"
	OpToggle   = "toggle"
	OpYears    = "years"
	OpRender   = "render"
	OpExport   = "export"
	OpImport   = "import"
	OpPublish  = "publish"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields is a small builder for slog key/value pairs.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError is a no-op for a nil error.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSelection records the filter that produced a view.
func (f LogFields) WithSelection(selected, yearStart, yearEnd int) LogFields {
	f[FieldSelected] = selected
	f[FieldYearStart] = yearStart
	f[FieldYearEnd] = yearEnd
	return f
}

// WithDataset records the size and provenance of a loaded dataset.
func (f LogFields) WithDataset(source string, deforestation, economic int, fallback bool) LogFields {
	f[FieldSource] = source
	f[FieldDeforestRows] = deforestation
	f[FieldEconomicRows] = economic
	f[FieldFallback] = fallback
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice flattens the fields for slog's variadic args.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
