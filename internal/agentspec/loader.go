package agentspec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadError is an error encountered while loading profile files.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for profile loading.
const (
	ErrCodeNotFound    = "SPEC_NOT_FOUND"
	ErrCodeNoFiles     = "SPEC_NO_FILES"
	ErrCodeLoadFailed  = "SPEC_LOAD_FAILED"
	ErrCodeBuildFailed = "SPEC_BUILD_FAILED"
	ErrCodeInvalid     = "SPEC_INVALID"
)

// Load reads every CUE file in dir and returns the decoded profile set.
// Fails fast on the first error: a deployment with a broken profile should
// not come up half-routed.
func Load(dir string) (Set, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("agent specs directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing agent specs directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	return decodeProfiles(value)
}

// decodeProfiles extracts the "agent" struct from a built CUE value.
func decodeProfiles(value cue.Value) (Set, error) {
	agents := value.LookupPath(cue.ParsePath("agent"))
	if !agents.Exists() {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: `no top-level "agent" struct defined`}
	}

	iter, err := agents.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("iterating agents: %v", err)}
	}

	set := make(Set)
	for iter.Next() {
		var p Profile
		if err := iter.Value().Decode(&p); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("agent %q: %v", iter.Label(), err)}
		}
		p.Name = iter.Label()
		if err := p.validate(); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error()}
		}
		set[p.Name] = p
	}

	if len(set) == 0 {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: `"agent" struct defines no agents`}
	}

	return set, nil
}

// findCUEFiles returns the .cue files directly inside dir.
func findCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".cue") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
