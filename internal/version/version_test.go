// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfoIncludesShort(t *testing.T) {
	if !strings.Contains(Info(), Short()) {
		t.Errorf("Info() %q does not contain Short() %q", Info(), Short())
	}
}

func TestFullFields(t *testing.T) {
	full := Full()
	for _, key := range []string{"version", "commit", "buildDate", "goVersion", "platform"} {
		if full[key] == "" {
			t.Errorf("Full() missing %q", key)
		}
	}
	if full["version"] != Short() {
		t.Errorf("Full() version %q != Short() %q", full["version"], Short())
	}
}
