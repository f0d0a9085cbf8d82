package vault

import (
	"errors"
	"sort"

	"journal-coach/internal/backup"
)

// ErrNotFound is returned by Get when no snapshot has the requested name.
var ErrNotFound = errors.New("snapshot not found")

func sortNewestFirst(objs []backup.Object) {
	sort.Slice(objs, func(i, j int) bool {
		if objs[i].ModifiedAt.Equal(objs[j].ModifiedAt) {
			return objs[i].Name > objs[j].Name
		}
		return objs[i].ModifiedAt.After(objs[j].ModifiedAt)
	})
}
