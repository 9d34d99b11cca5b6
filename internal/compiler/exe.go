package compiler

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/HicaroD/ember/internal/config"
	"github.com/pkg/errors"
)

func (c *Compiler) generateExe(module string, opts Options) error {
	dir, err := os.MkdirTemp("", "ember-build")
	if err != nil {
		return errors.Wrap(err, "unable to create build directory")
	}

	name := filepath.Base(opts.Output)
	irFilepath := filepath.Join(dir, name+".ll")
	optimizedIrFilepath := filepath.Join(dir, name+"_optimized.ll")

	err = os.WriteFile(irFilepath, []byte(module), 0644)
	if err != nil {
		return errors.Wrap(err, "unable to write IR file")
	}
	if opts.KeepIR {
		err = os.WriteFile(opts.Output+".ll", []byte(module), 0644)
		if err != nil {
			return errors.Wrap(err, "unable to write IR file")
		}
	}

	optLevel := opts.BuildType.OptLevel()
	err = run(c.cfg.Tools.Opt, optLevel, "-o", optimizedIrFilepath, irFilepath)
	if err != nil {
		return err
	}

	args := []string{optLevel, "-o", opts.Output, optimizedIrFilepath}
	if opts.BuildType == config.RELEASE {
		args = append(args, "-Wl,-s")
	}
	if c.cfg.Paths.Runtime != "" {
		args = append(args, c.cfg.Paths.Runtime)
	}
	err = run(c.cfg.Tools.Clang, args...)
	if err != nil {
		return err
	}

	if config.DEV {
		log.Printf("keeping build directory %s", dir)
		return nil
	}
	return os.RemoveAll(dir)
}

func run(tool string, args ...string) error {
	cmd := exec.Command(tool, args...)
	if config.DEV {
		log.Printf("running %s", cmd)
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s failed: %s", tool, output)
	}
	return nil
}
