package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	uploadsAccepted  atomic.Int64
	uploadsRejected  atomic.Int64
	cleaningFailures atomic.Int64
	statusesRecorded atomic.Int64
	missingMarked    atomic.Int64
	exportCopies     atomic.Int64
)

func IncUploadAccepted()  { uploadsAccepted.Add(1) }
func IncUploadRejected()  { uploadsRejected.Add(1) }
func IncCleaningFailure() { cleaningFailures.Add(1) }
func IncExportCopied()    { exportCopies.Add(1) }

func AddStatusesRecorded(n int) { statusesRecorded.Add(int64(n)) }
func AddMissingMarked(n int)    { missingMarked.Add(int64(n)) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP aprportal_uploads_accepted_total Number of uploads accepted since process start.\n")
	fmt.Fprintf(w, "# TYPE aprportal_uploads_accepted_total counter\n")
	fmt.Fprintf(w, "aprportal_uploads_accepted_total %d\n", uploadsAccepted.Load())

	fmt.Fprintf(w, "# HELP aprportal_uploads_rejected_total Number of uploads rejected by validation since process start.\n")
	fmt.Fprintf(w, "# TYPE aprportal_uploads_rejected_total counter\n")
	fmt.Fprintf(w, "aprportal_uploads_rejected_total %d\n", uploadsRejected.Load())

	fmt.Fprintf(w, "# HELP aprportal_cleaning_failures_total Number of cleaning runs that failed since process start.\n")
	fmt.Fprintf(w, "# TYPE aprportal_cleaning_failures_total counter\n")
	fmt.Fprintf(w, "aprportal_cleaning_failures_total %d\n", cleaningFailures.Load())

	fmt.Fprintf(w, "# HELP aprportal_statuses_recorded_total Number of Uploaded calendar entries written since process start.\n")
	fmt.Fprintf(w, "# TYPE aprportal_statuses_recorded_total counter\n")
	fmt.Fprintf(w, "aprportal_statuses_recorded_total %d\n", statusesRecorded.Load())

	fmt.Fprintf(w, "# HELP aprportal_missing_marked_total Number of Missing calendar entries written by the sweep since process start.\n")
	fmt.Fprintf(w, "# TYPE aprportal_missing_marked_total counter\n")
	fmt.Fprintf(w, "aprportal_missing_marked_total %d\n", missingMarked.Load())

	fmt.Fprintf(w, "# HELP aprportal_export_copies_total Number of cleaned artifacts copied downstream since process start.\n")
	fmt.Fprintf(w, "# TYPE aprportal_export_copies_total counter\n")
	fmt.Fprintf(w, "aprportal_export_copies_total %d\n", exportCopies.Load())
}
