package ports

import "sideload-watch/internal/types"

type OutputPort interface {
	WriteRecords(records []types.PackageRecord) error
	WriteVerdict(report types.VerdictReport) error
	WritePending(report types.PendingReport) error
}
