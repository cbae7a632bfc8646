package vectorindex

import "os"

func truncate(path string, size int64) error {
	return os.Truncate(path, size)
}

func int64Ptr(v int64) *int64 { return &v }
