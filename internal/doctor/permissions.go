package doctor

import (
	"fmt"
	"os"

	"github.com/treykane/envssh/internal/model"
)

// Environment files are trusted input: user and host go to ssh unescaped.
// Anything other users can write to breaks that assumption.
const othersWrite os.FileMode = 0o022

func permissionIssues(cfgPath, serversDir string, envs []model.Environment) []Issue {
	var issues []Issue
	checkWritable(&issues, cfgPath, true)
	checkWritable(&issues, serversDir, false)
	for _, e := range envs {
		checkWritable(&issues, e.Path, true)
	}
	return issues
}

func checkWritable(issues *[]Issue, path string, isFile bool) {
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		*issues = append(*issues, Issue{
			Severity:       SeverityLow,
			Check:          "permissions",
			Target:         path,
			Message:        fmt.Sprintf("unable to inspect permissions: %v", err),
			Recommendation: "verify path and permissions manually",
		})
		return
	}
	mode := st.Mode().Perm()
	if mode&othersWrite == 0 {
		return
	}
	kind := "directory"
	if isFile {
		kind = "file"
	}
	*issues = append(*issues, Issue{
		Severity:       SeverityMedium,
		Check:          "permissions",
		Target:         path,
		Message:        fmt.Sprintf("%s is writable by group or others (%#o)", kind, mode),
		Recommendation: "remove group/other write access; connection targets are read from it unchecked",
	})
}
