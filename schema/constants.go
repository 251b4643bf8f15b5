package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// Severity represents how serious a failed check is.
	Severity string

	// DatasetKind identifies which loaded batch a suite runs against.
	DatasetKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All severities supported.
const (
	CriticalSeverity Severity = "critical" // default
	WarningSeverity  Severity = "warning"
	InfoSeverity     Severity = "info"
)

// All dataset kinds supported. Suites are routed to a batch by name prefix.
const (
	TripData DatasetKind = "trip_data"
	TripFare DatasetKind = "trip_fare"
)

// TableColumn is the panel key used for checks that do not target a column.
const TableColumn = "_table"

// OverallRowKey is the key used for the overall score row in CSV output.
const OverallRowKey = "__overall__"

// ReportTimestampFormat is the timestamp layout used in report file names.
const ReportTimestampFormat = "2006-01-02T15:04:05.000000"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSeverities lists all valid check severities.
var ValidSeverities = map[Severity]struct{}{
	CriticalSeverity: {},
	WarningSeverity:  {},
	InfoSeverity:     {},
}

// AllDatasetKinds returns the dataset kinds in routing order.
var AllDatasetKinds = []DatasetKind{TripData, TripFare}
