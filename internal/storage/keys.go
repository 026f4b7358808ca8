package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// ObjectKey builds the storage key for an original document upload:
//
//	<firm>/client/<client>/period/<yyyy-mm>/originals/<uuid>__<filename>
//
// The uuid segment keeps re-uploads of the same filename from colliding;
// duplicate detection is a separate, record-level concern.
func ObjectKey(firmID, clientID string, year, month int, filename string) string {
	return fmt.Sprintf("%s/client/%s/period/%04d-%02d/originals/%s__%s",
		firmID, clientID, year, month, uuid.New().String(), filename)
}
