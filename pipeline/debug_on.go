//go:build ntt2x2debug

package pipeline

const debugAssertions = true
