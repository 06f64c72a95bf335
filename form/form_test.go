package form

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askline/askline/convert"
)

const sampleYAML = `
title: Server setup
fields:
  - name: hostname
    label: Hostname
    type: string
    required: true
  - name: cpus
    type: int
    default: "4"
  - name: disk
    type: string
    options: [small, medium, large]
  - name: boot_timeout
    label: Boot timeout
    type: duration
    default: 30s
  - name: token
    label: API token
    type: string
    secret: true
`

func TestParse_SampleForm(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))

	require.NoError(t, err)
	assert.Equal(t, "Server setup", f.Title)
	require.Len(t, f.Fields, 5)

	hostname := f.Fields[0]
	assert.Equal(t, "hostname", hostname.Name)
	assert.Equal(t, "Hostname", hostname.Label)
	assert.True(t, hostname.Required)

	cpus := f.Fields[1]
	assert.Equal(t, "int", cpus.Type)
	assert.Equal(t, "4", cpus.Default)

	disk := f.Fields[2]
	assert.Equal(t, []string{"small", "medium", "large"}, disk.Options)

	token := f.Fields[4]
	assert.True(t, token.Secret)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("title: [unclosed"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read form file")
}

func TestForm_SaveAndLoad(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "forms", "server.yaml")
	require.NoError(t, f.Save(path))

	// Fields without options must not gain an empty options list on disk,
	// which would load back as an empty slice instead of nil.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "options: []")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)
}

func TestForm_Validate_SampleForm(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.NoError(t, f.Validate(convert.NewRegistry()))
}

func TestForm_Validate_NoFields(t *testing.T) {
	f := &Form{Title: "empty"}

	err := f.Validate(convert.NewRegistry())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fields")
}

func TestForm_Validate_EmptyName(t *testing.T) {
	f := &Form{Fields: []Field{{Type: "string"}}}

	err := f.Validate(convert.NewRegistry())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty name")
}

func TestForm_Validate_DuplicateName(t *testing.T) {
	f := &Form{Fields: []Field{
		{Name: "host", Type: "string"},
		{Name: "host", Type: "int"},
	}}

	err := f.Validate(convert.NewRegistry())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field name: host")
}

func TestForm_Validate_UnknownType(t *testing.T) {
	f := &Form{Fields: []Field{{Name: "mask", Type: "ipnet"}}}

	err := f.Validate(convert.NewRegistry())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "ipnet"`)
	// The message lists what would have been accepted.
	assert.Contains(t, err.Error(), "duration")
}

func TestForm_Validate_BadDefault(t *testing.T) {
	f := &Form{Fields: []Field{{Name: "cpus", Type: "int", Default: "many"}}}

	err := f.Validate(convert.NewRegistry())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `default "many" does not parse as int`)
}

func TestForm_Validate_BadOption(t *testing.T) {
	f := &Form{Fields: []Field{{Name: "timeout", Type: "duration", Options: []string{"30s", "later"}}}}

	err := f.Validate(convert.NewRegistry())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `option "later" does not parse as duration`)
}

func TestForm_Validate_DefaultOutsideOptions(t *testing.T) {
	f := &Form{Fields: []Field{
		{Name: "disk", Type: "string", Default: "huge", Options: []string{"small", "medium", "large"}},
	}}

	err := f.Validate(convert.NewRegistry())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `default "huge" must be one of: small, medium, large`)

	f.Fields[0].Default = "medium"
	assert.NoError(t, f.Validate(convert.NewRegistry()))
}

func TestForm_Validate_TypeDefaultsToString(t *testing.T) {
	f := &Form{Fields: []Field{{Name: "note"}}}

	assert.NoError(t, f.Validate(convert.NewRegistry()))
}

func TestForm_Validate_CustomRegistryType(t *testing.T) {
	reg := convert.NewRegistry()
	reg.Register("upper", func(text string) (any, error) {
		return text, nil
	})

	f := &Form{Fields: []Field{{Name: "code", Type: "upper", Default: "abc"}}}

	assert.NoError(t, f.Validate(reg))
}
