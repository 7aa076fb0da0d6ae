package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *TrapError
		want string
	}{
		{
			name: "with cause",
			err:  NewStore(fmt.Errorf("disk full")),
			want: "STORE: could not store mail: disk full",
		},
		{
			name: "without cause",
			err:  NewInvalidRequest("file_name is required"),
			want: "INVALID_REQUEST: file_name is required",
		},
		{
			name: "deserialization",
			err:  NewDeserialization(fmt.Errorf("unexpected end of JSON input")),
			want: "DESERIALIZATION: could not deserialize mail: unexpected end of JSON input",
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

func TestIs(t *testing.T) {
	err := NewLoad(os.ErrNotExist)

	if !Is(err, ErrLoad) {
		t.Error("Is(err, ErrLoad) = false, want true")
	}
	if Is(err, ErrStore) {
		t.Error("Is(err, ErrStore) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrLoad) {
		t.Error("Is on a plain error should be false")
	}
	if Is(nil, ErrLoad) {
		t.Error("Is(nil, ...) should be false")
	}
}

func TestIsSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("entry 3: %w", NewDeserialization(fmt.Errorf("bad json")))
	if !Is(wrapped, ErrDeserialization) {
		t.Error("Is should unwrap fmt.Errorf %w chains")
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := os.ErrPermission
	err := NewDirEnumeration(&fs.PathError{Op: "open", Path: "/nope", Err: cause})

	if !stderrors.Is(err, os.ErrPermission) {
		t.Error("errors.Is should reach the underlying cause")
	}
	if !strings.Contains(err.Error(), "/nope") {
		t.Errorf("Error() = %q, should identify the failing path", err.Error())
	}
}
