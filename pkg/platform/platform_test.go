package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeArch(t *testing.T) {
	for _, d := range Matrix() {
		t.Run(d.String(), func(t *testing.T) {
			got := NormalizeArch(d)
			if d.Arch == MacOSFat {
				require.Equal(t, X86_64, got)
			} else {
				require.Equal(t, d.Arch, got)
			}

			// normalizing twice changes nothing
			require.Equal(t, got, NormalizeArch(Descriptor{OS: d.OS, Arch: got}))
		})
	}
}

func TestMatrixIsValid(t *testing.T) {
	require.Len(t, Matrix(), 4)
	for _, d := range Matrix() {
		require.NoError(t, d.Validate(), d.String())
	}
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, Descriptor{Linux, MacOSFat}.Validate(), ErrPlatformNotSupported)
	require.ErrorIs(t, Descriptor{Windows, MacOSFat}.Validate(), ErrPlatformNotSupported)
	require.ErrorIs(t, Descriptor{"Plan9", X86_64}.Validate(), ErrPlatformNotSupported)
	require.ErrorIs(t, Descriptor{Linux, "armv8"}.Validate(), ErrPlatformNotSupported)
}

func TestExecutableSuffix(t *testing.T) {
	require.Equal(t, ".bat", Descriptor{Windows, X86_64}.ExecutableSuffix())
	require.Equal(t, "", Descriptor{Linux, X86_64}.ExecutableSuffix())
	require.Equal(t, "", Descriptor{MacOS, MacOSFat}.ExecutableSuffix())

	require.Equal(t, ";", Descriptor{Windows, X86_64}.PathListSeparator())
	require.Equal(t, ":", Descriptor{MacOS, X86_64}.PathListSeparator())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Descriptor
		wantErr bool
	}{
		{in: "Linux/x86_64", want: Descriptor{Linux, X86_64}},
		{in: "linux/amd64", want: Descriptor{Linux, X86_64}},
		{in: "darwin/macos_fat", want: Descriptor{MacOS, MacOSFat}},
		{in: "Macos/x86_64", want: Descriptor{MacOS, X86_64}},
		{in: "windows/x64", want: Descriptor{Windows, X86_64}},
		{in: "linux/macos_fat", wantErr: true},
		{in: "linux", wantErr: true},
		{in: "freebsd/amd64", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDetect(t *testing.T) {
	d, err := detect("linux", "amd64")
	require.NoError(t, err)
	require.Equal(t, Descriptor{Linux, X86_64}, d)

	d, err = detect("darwin", "arm64")
	require.NoError(t, err)
	require.Equal(t, Descriptor{MacOS, MacOSFat}, d)

	_, err = detect("linux", "arm64")
	require.ErrorIs(t, err, ErrPlatformNotSupported)

	_, err = detect("plan9", "amd64")
	require.ErrorIs(t, err, ErrPlatformNotSupported)
}

func TestResolveOverrides(t *testing.T) {
	d, err := Resolve("windows", "x86_64")
	require.NoError(t, err)
	require.Equal(t, Descriptor{Windows, X86_64}, d)

	_, err = Resolve("linux", "macos_fat")
	require.ErrorIs(t, err, ErrPlatformNotSupported)
}
