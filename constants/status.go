package constants

// ReportStatus is the canonical status for rows in reportes_mensuales.
type ReportStatus string

// Stable values (store these exact strings in DB and in the local cache).
const (
	ReportStatusDemo      ReportStatus = "demo"      // exists only in the local cache, ids are fabricated
	ReportStatusProcessed ReportStatus = "procesado" // canonical row in the hosted store
)
