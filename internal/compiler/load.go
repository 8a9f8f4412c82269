package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadModels loads the CUE package in dir and compiles its system entries.
func LoadModels(dir string) ([]Model, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("models directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("models directory: not a directory: %s", dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning models directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	return CompileModels(value)
}

// FindCUEFiles returns the .cue files directly inside dir.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
