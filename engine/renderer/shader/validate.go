package shader

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ErrInvalidSPIRV is returned when the compiler output does not start with the SPIR-V magic number.
var ErrInvalidSPIRV = errors.New("shader: compiler output is not SPIR-V")

// Validate compiles WGSL source offline to SPIR-V and reports the first compile error.
//
// Parameters:
//   - source: pre-processed WGSL source
//
// Returns:
//   - error: the compile error, or nil if the source compiled to a SPIR-V module
func Validate(source string) error {
	spirv, err := naga.Compile(source)
	if err != nil {
		return fmt.Errorf("shader: compile: %w", err)
	}
	if len(spirv) < 4 || binary.LittleEndian.Uint32(spirv) != spirvMagic {
		return ErrInvalidSPIRV
	}
	slogger().Debug("shader validated", "spirv_bytes", len(spirv))
	return nil
}
