package vm

// Load splits data into header, constant pool, and program bytecode
// regions, and constructs an Evaluator with an initial frame wrapping
// the top-level program. The initial frame's locals alias the
// Evaluator's Globals slice directly (size header.VarCount), so STORE
// and LOAD against it are global accesses rather than function-local
// ones — every other frame, created by CALL, gets its own independent
// locals.
func Load(data []byte) (*Evaluator, error) {
	hdr, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	rest := data[headerSize:]
	constants, consumed, err := DecodeConstants(rest)
	if err != nil {
		return nil, err
	}
	program := rest[consumed:]

	ev := newEvaluator()
	ev.Header = hdr
	ev.Constants = constants
	ev.Globals = make([]int32, hdr.VarCount)

	ev.frames = []*Frame{{
		name:          "<top-level>",
		funcID:        -1,
		body:          program,
		locals:        ev.Globals,
		isGlobalFrame: true,
		returnMarker:  0,
	}}

	return ev, nil
}
