package dot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/meikuraledutech/aoplan/assembly"
)

func TestWrite(t *testing.T) {
	f := assembly.NewFactory()
	f.InsertOr("root")
	f.InsertAnd("build")
	f.InsertOr("part")
	f.InsertEdge("root", "build")
	f.InsertEdge("build", "part")

	g := f.Graph()
	id, _ := f.NodeID("build")
	n, _ := g.Node(id)
	n.Data.AssignedAgent = "r1"

	var buf bytes.Buffer
	if err := Write(&buf, g, "plan"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`digraph "plan" {`,
		`"root" [shape=ellipse];`,
		`"part" [shape=ellipse];`,
		`shape=box`,
		`(r1)`,
		`"root" -> "build" [label="r1"];`,
		`"build" -> "part";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
