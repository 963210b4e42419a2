package port

import (
	"io"

	"github.com/logicmart/analytics/internal/core/domain"
)

// ReportWriter renders an assembled report into one output document.
type ReportWriter interface {
	Write(rep *domain.Report, out io.Writer) error
}
