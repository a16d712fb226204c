package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// contractSource is the ABI and init code to deploy
type contractSource struct {
	ABI      string
	Bytecode string
}

// loadArtifact reads a Foundry (bytecode.object) or Hardhat (bytecode string) build artifact
func loadArtifact(path string) (*contractSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode json.RawMessage `json:"bytecode"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if len(artifact.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", path)
	}

	bytecode, err := artifactBytecode(artifact.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}

	return &contractSource{ABI: string(artifact.ABI), Bytecode: bytecode}, nil
}

func artifactBytecode(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("no bytecode")
	}

	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		var foundry struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &foundry); err != nil {
			return "", fmt.Errorf("unrecognized bytecode format: %w", err)
		}
		code = foundry.Object
	}

	code = strings.TrimSpace(code)
	if code == "" || code == "0x" {
		return "", errors.New("empty bytecode (abstract contract or interface?)")
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	return code, nil
}

// resolveSource merges inline values, files and an artifact. Explicit values win over the artifact.
func resolveSource(abi, abiFile, bytecode, bytecodeFile, artifactPath string) (*contractSource, error) {
	source := &contractSource{}
	if artifactPath != "" {
		loaded, err := loadArtifact(artifactPath)
		if err != nil {
			return nil, err
		}
		source = loaded
	}

	if abiFile != "" {
		data, err := os.ReadFile(abiFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read ABI file: %w", err)
		}
		source.ABI = strings.TrimSpace(string(data))
	}
	if abi != "" {
		source.ABI = abi
	}

	if bytecodeFile != "" {
		data, err := os.ReadFile(bytecodeFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read bytecode file: %w", err)
		}
		source.Bytecode = strings.TrimSpace(string(data))
	}
	if bytecode != "" {
		source.Bytecode = bytecode
	}

	switch {
	case source.ABI == "":
		return nil, errors.New("an ABI is required (--abi, --abi-file or --artifact)")
	case source.Bytecode == "":
		return nil, errors.New("bytecode is required (--bytecode, --bytecode-file or --artifact)")
	}
	return source, nil
}
