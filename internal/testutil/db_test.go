package testutil

import (
	"strings"
	"testing"
)

func TestDBNameFor(t *testing.T) {
	short := DBNameFor("TestCreate/duplicate email")
	if !strings.HasPrefix(short, TestDBName+"_TestCreate_duplicate_email_") {
		t.Errorf("DBNameFor() = %q", short)
	}

	long1 := DBNameFor("TestCampaigns/" + strings.Repeat("x", 80) + "/a")
	long2 := DBNameFor("TestCampaigns/" + strings.Repeat("x", 80) + "/b")
	if len(long1) > maxDBName || len(long2) > maxDBName {
		t.Errorf("names exceed %d bytes: %d, %d", maxDBName, len(long1), len(long2))
	}
	if long1 == long2 {
		t.Errorf("truncated names collide: %q", long1)
	}
}
