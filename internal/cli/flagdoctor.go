package cli

// validateFlags centralizes common flag combinations to keep behavior consistent.
func validateFlags(globals *Globals, sessions []int) error {
	if globals != nil && globals.Quiet && globals.Verbose {
		return outputErrorCommon(globals, "INVALID_FLAGS", "--quiet cannot be combined with --verbose", "drop one of them")
	}
	for _, n := range sessions {
		if n < 1 {
			return errorf(globals, "INVALID_FLAGS", "session numbers start at 1", "--session must be positive, got %d", n)
		}
	}
	return nil
}
