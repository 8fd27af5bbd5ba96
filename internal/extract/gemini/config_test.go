package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannelSpecs(t *testing.T) {
	specs := ParseChannelSpecs("gemini-1.5-flash@v1beta, gemini-1.5-flash-8b@v1beta,gemini-1.5-pro@v1")
	assert.Equal(t, []ChannelSpec{
		{Model: "gemini-1.5-flash", APIVersion: "v1beta"},
		{Model: "gemini-1.5-flash-8b", APIVersion: "v1beta"},
		{Model: "gemini-1.5-pro", APIVersion: "v1"},
	}, specs)
}

func TestParseChannelSpecsDefaultsVersion(t *testing.T) {
	specs := ParseChannelSpecs("gemini-1.5-flash")
	assert.Equal(t, []ChannelSpec{{Model: "gemini-1.5-flash", APIVersion: "v1beta"}}, specs)
}

func TestParseChannelSpecsSkipsEmpty(t *testing.T) {
	assert.Empty(t, ParseChannelSpecs(""))
	assert.Len(t, ParseChannelSpecs(",gemini-1.5-flash@v1,,"), 1)
}
