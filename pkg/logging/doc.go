// Package logging provides a process-wide structured logger.
//
// The package wraps logrus and exposes a single global logger instance
// that is initialized once and then retrieved via GetLogger. Subsystems
// obtain loggers through this package so that level, format and output
// destination are controlled from one place.
//
// # Initialisation
//
// Call Init (or InitDefault for sensible defaults) once at program startup:
//
//	if err := logging.Init(logging.Config{Level: logging.LevelDebug}); err != nil {
//	    log.Fatal(err)
//	}
//
// InitDefault writes INFO-level text logs to stderr.
//
// # Context helpers
//
//	log := logging.WithTx(txID)              // adds tx_id field
//	log := logging.WithPage(fileID, pageNo)  // adds file_id and page_no
//	log := logging.WithComponent("PageStore")
package logging
