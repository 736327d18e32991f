package pyramid

import "fmt"

// RoutesFileNotFoundError reports that no routes file was found under the
// project directory.
type RoutesFileNotFoundError struct {
	FileName string
	BaseDir  string
}

func (e *RoutesFileNotFoundError) Error() string {
	return fmt.Sprintf("file %s not found in %s", e.FileName, e.BaseDir)
}

// ViewsDirNotFoundError reports that no views directory was found under the
// project directory.
type ViewsDirNotFoundError struct {
	DirName string
	BaseDir string
}

func (e *ViewsDirNotFoundError) Error() string {
	return fmt.Sprintf("directory %s not found in %s", e.DirName, e.BaseDir)
}

// InvalidURLPatternError reports a route pattern whose placeholders cannot be
// parsed.
type InvalidURLPatternError struct {
	Pattern string
	Reason  string
}

func (e *InvalidURLPatternError) Error() string {
	return fmt.Sprintf("invalid URL pattern %q: %s", e.Pattern, e.Reason)
}
