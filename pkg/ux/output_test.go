// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"
)

func TestEdge_ContainsEndpointsAndType(t *testing.T) {
	out := Edge("Temperature", "Pressure", "direct")
	for _, want := range []string{"Temperature", "Pressure", "direct"} {
		if !strings.Contains(out, want) {
			t.Errorf("Edge output missing %q: %s", want, out)
		}
	}
}

func TestEdge_InverseUsesDistinctArrow(t *testing.T) {
	direct := Edge("Supply", "Price", "direct")
	inverse := Edge("Supply", "Price", "inverse")
	if direct == inverse {
		t.Error("direct and inverse edges render identically")
	}
}

func TestKeyValue_Format(t *testing.T) {
	out := KeyValue("concepts", 19)
	if !strings.Contains(out, "concepts:") || !strings.Contains(out, "19") {
		t.Errorf("unexpected KeyValue output: %s", out)
	}
}

func TestBullets_OneLinePerItem(t *testing.T) {
	out := Bullets([]string{"one", "two", "three"})
	if got := len(strings.Split(out, "\n")); got != 3 {
		t.Errorf("expected 3 lines, got %d: %s", got, out)
	}
}

func TestSuccessfAndErrorf(t *testing.T) {
	if !strings.Contains(Successf("done %d", 5), "done 5") {
		t.Error("Successf dropped formatted text")
	}
	if !strings.Contains(Errorf("failed: %s", "boom"), "failed: boom") {
		t.Error("Errorf dropped formatted text")
	}
}
