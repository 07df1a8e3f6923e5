package director

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// GeneratePlanPath creates a timestamped plan filename in dir, named after the props file
func GeneratePlanPath(dir, propsPath string) string {
	base := filepath.Base(propsPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "plan"
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.yaml", name, timestamp))
}
