package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// CheckFilePermissionsForExecution checks whether the given filePath owner, group and permissions
// are safe to use this file for execution by karlson.
func CheckFilePermissionsForExecution(filePath string) (bool, error) {
	file, err := filepath.EvalSymlinks(filePath)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(file)
	if os.IsNotExist(err) {
		return false, errors.New("file not found")
	}

	stat := info.Sys().(*syscall.Stat_t)
	if stat.Uid != 0 {
		return false, errors.New("owner is not root")
	}

	if stat.Gid != 0 {
		mode := info.Mode()
		groupWrite := mode & (os.FileMode(0o020))
		if groupWrite != 0 {
			return false, errors.New("group is not root but has write permission")
		}
	}

	otherWrite := info.Mode() & (os.FileMode(0o002))
	if otherWrite != 0 {
		return false, errors.New("others have write permission")
	}

	return true, nil
}

// FileExists returns true if path exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func ReadIntFromFile(path string) (value int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, err
	}
	text := strings.TrimSpace(string(data))
	if len(text) <= 0 {
		return -1, fmt.Errorf("file is empty: %s", path)
	}
	return strconv.Atoi(text)
}

// ReadStringFromFile returns the trimmed content of the given file, or fallback if it can't be read
func ReadStringFromFile(path string, fallback string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}
	return strings.TrimSpace(string(data))
}

// WriteIntToFile writes a single integer to the given path
func WriteIntToFile(value int, path string) error {
	evaluatedPath, err := filepath.EvalSymlinks(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	valueAsString := strconv.Itoa(value)

	// sysfs attributes must not be truncated or replaced, so open them write-only
	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	_, err = file.WriteString(valueAsString)
	closeErr := file.Close()
	if err != nil {
		return err
	}
	return closeErr
}
