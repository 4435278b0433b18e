package pipeline

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestRunErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *RunError
		want string
	}{
		{
			name: "without cause",
			err:  &RunError{Code: CodeValidation, Message: "no input images"},
			want: "VALIDATION_FAILED: no input images",
		},
		{
			name: "with cause",
			err:  &RunError{Code: CodeDecode, Message: "decoding a.png", Cause: io.ErrUnexpectedEOF},
			want: "DECODE_FAILED: decoding a.png: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunErrorUnwrap(t *testing.T) {
	err := wrapRunError(CodeDecode, io.ErrUnexpectedEOF, "decoding a.png")
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is() did not reach the cause")
	}

	var re *RunError
	if !errors.As(err, &re) {
		t.Fatal("errors.As() did not find the RunError")
	}
	if re.Code != CodeDecode {
		t.Errorf("Code = %q, want %q", re.Code, CodeDecode)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "direct", err: runErrorf(CodeEncode, "boom"), want: CodeEncode},
		{name: "busy sentinel", err: ErrBusy, want: CodeBusy},
		{
			name: "wrapped further",
			err:  fmt.Errorf("run failed: %w", runErrorf(CodeCanceled, "canceled")),
			want: CodeCanceled,
		},
		{name: "foreign error", err: errors.New("plain"), want: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
