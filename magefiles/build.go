//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var shaderStages = map[string]string{
	"vertexcolor.vert":         "vertex",
	"vertexcolor.frag":         "fragment",
	"distancefieldvector.vert": "vertex",
	"distancefieldvector.frag": "fragment",
}

// Compiles the shader sources to SPIR-V, one binary per stage, for the
// default two-dimensional direct-uniform variant. Each stage is glued
// behind the shared prelude the same way the runtime assembler does it.
func (Build) Shaders() error {
	dir := filepath.Join("assets", "shaders")
	generic, err := os.ReadFile(filepath.Join(dir, "generic.glsl"))
	if err != nil {
		return err
	}

	for source, stage := range shaderStages {
		body, err := os.ReadFile(filepath.Join(dir, source))
		if err != nil {
			return err
		}
		assembled := "#version 450 core\n#define TWO_DIMENSIONS\n" + string(generic) + string(body)

		tmp := filepath.Join(os.TempDir(), source)
		if err := os.WriteFile(tmp, []byte(assembled), 0o644); err != nil {
			return err
		}

		out := filepath.Join(dir, source+".spv")
		args := []string{"-fshader-stage=" + stage, tmp, "-o", out}
		if _, err := executeCmd("glslc", withArgs(args...), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Builds the testbed binary.
func (Build) Testbed() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/testbed", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs all tests.
func (Build) Test() error {
	fmt.Println("Running tests...")
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet over the module.
func (Build) Vet() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
