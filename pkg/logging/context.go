package logging

import (
	"github.com/sirupsen/logrus"
)

// WithTx creates a log entry with transaction context.
//
// Example:
//
//	log := logging.WithTx(tid.ID())
//	log.Debug("inserting tuple")
func WithTx(txID int64) *logrus.Entry {
	return GetLogger().WithField("tx_id", txID)
}

// WithFile creates a log entry with heap file context.
func WithFile(path string) *logrus.Entry {
	return GetLogger().WithField("file", path)
}

// WithPage creates a log entry with page context.
// Useful for buffer pool and storage operations.
//
// Example:
//
//	log := logging.WithPage(fileID, pageNo)
//	log.WithField("dirty", isDirty).Debug("page evicted")
func WithPage(fileID, pageNo uint64) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{"file_id": fileID, "page_no": pageNo})
}

// WithComponent creates a log entry with component/subsystem context.
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

// WithError creates a log entry carrying err.
func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}
