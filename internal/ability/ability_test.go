package ability

import (
	"testing"

	"github.com/dropDatabas3/guardia/internal/token"
)

func grant(subject, codes string) token.PermissionGrant {
	return token.PermissionGrant{Subject: subject, Action: codes}
}

func TestBuild_CodeMapping(t *testing.T) {
	rs := Build([]token.PermissionGrant{grant("order", "1,2,3,4,5,6")})

	for _, a := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionExport, ActionImport} {
		if !rs.Can(a, "order") {
			t.Fatalf("expected %s on order", a)
		}
	}
	if rs.Can(ActionManage, "order") {
		t.Fatalf("manage was not granted")
	}
	if rs.Can(ActionRead, "invoice") {
		t.Fatalf("invoice was not granted")
	}
}

func TestBuild_UnknownCodeDegradesToRead(t *testing.T) {
	rs := Build([]token.PermissionGrant{grant("order", "99")})

	if !rs.Can(ActionRead, "order") {
		t.Fatalf("unknown code should degrade to read")
	}
	if rs.Can(ActionUpdate, "order") || rs.Can(ActionDelete, "order") {
		t.Fatalf("unknown code must never escalate beyond read")
	}
}

func TestBuild_NonNumericCodeDegradesToRead(t *testing.T) {
	rs := Build([]token.PermissionGrant{grant("order", "update")})

	if !rs.Can(ActionRead, "order") {
		t.Fatalf("non-numeric code should degrade to read")
	}
	if rs.Can(ActionUpdate, "order") {
		t.Fatalf("non-numeric code must not grant update")
	}
}

func TestBuild_IgnoresEmptyParts(t *testing.T) {
	rs := Build([]token.PermissionGrant{
		grant("", "1"),
		grant("order", " 1 , , 3 "),
	})

	if !rs.Can(ActionRead, "order") || !rs.Can(ActionUpdate, "order") {
		t.Fatalf("expected read+update on order, got %d rules", rs.Len())
	}
	if rs.Len() != 2 {
		t.Fatalf("expected 2 rules, got %d", rs.Len())
	}
}

func TestManage_SubsumesActionsOnSameSubject(t *testing.T) {
	rs := Build([]token.PermissionGrant{grant("order", "0")})

	for _, a := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionExport, ActionImport, ActionManage} {
		if !rs.Can(a, "order") {
			t.Fatalf("manage on order should allow %s on order", a)
		}
	}
	if rs.Can(ActionRead, "invoice") {
		t.Fatalf("manage on order must not leak to other subjects")
	}
}

func TestUniversal_ManageOnAll(t *testing.T) {
	rs := Build([]token.PermissionGrant{grant("all", "0")})

	if !rs.Universal() {
		t.Fatalf("manage on all should be universal")
	}
	if !rs.Can(ActionDelete, "anything") || !rs.Can(ActionImport, "other") {
		t.Fatalf("universal set should allow everything")
	}
}

func TestUniversal_RequiresManage(t *testing.T) {
	// read sobre all no es el centinela: un grant de solo lectura no puede
	// convertirse en permiso sobre cualquier subject.
	rs := Build([]token.PermissionGrant{grant("all", "1")})

	if rs.Universal() {
		t.Fatalf("read on all must not be universal")
	}
	if rs.Can(ActionRead, "order") {
		t.Fatalf("read on all should not grant read on other subjects")
	}
	if !rs.Can(ActionRead, "all") {
		t.Fatalf("the literal all subject is still readable")
	}
}

func TestCheck_Conjunctive(t *testing.T) {
	rs := Build([]token.PermissionGrant{
		grant("order", "1,3"),
		grant("audit", "1"),
	})

	if !rs.Check([]Rule{{ActionRead, "order"}, {ActionRead, "audit"}}) {
		t.Fatalf("both capabilities are granted")
	}
	if rs.Check([]Rule{{ActionRead, "order"}, {ActionDelete, "order"}}) {
		t.Fatalf("delete on order is missing, conjunction must fail")
	}
	if !rs.Check(nil) {
		t.Fatalf("empty requirement is vacuously satisfied")
	}
}
