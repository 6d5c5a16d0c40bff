package normalize_test

import (
	"testing"

	"github.com/agbcc-tools/armclean/normalize"
)

func pipelineThrough(t *testing.T, name, src string) *normalize.File {
	t.Helper()
	file, errs := normalize.Parse(src, name)
	if errs != nil {
		t.Fatalf("[%s] parse failed: %v", name, errs)
	}
	normalize.Link(file)
	normalize.CollectLabels(file)
	normalize.ClassifyLabels(file)
	return file
}

// TestClassifyLabels_Precedence exercises the three classification rules
// and their precedence order (spec §4.3): a label that is both a branch
// target and immediately followed by data is CODE, not DATA, because rule
// 3 is applied after rule 2.
func TestClassifyLabels_Precedence(t *testing.T) {
	src := "foo:\n" +
		"\tbeq tgt\n" +
		"tgt:\n" +
		"\t.4byte 0x0\n" +
		"\tbx lr\n"

	file := pipelineThrough(t, "precedence", src)
	label := file.Functions[0].Labels["tgt"]
	if label == nil {
		t.Fatalf("label tgt not collected")
	}
	if label.LabelType != normalize.LabelCode {
		t.Errorf("branch-target label followed by data should classify CODE, got %s", label.LabelType)
	}
}

func TestClassifyLabels_DataOnly(t *testing.T) {
	src := "foo:\n\tbx lr\npool:\n\t.4byte 0x0\n"
	file := pipelineThrough(t, "data-only", src)
	label := file.Functions[0].Labels["pool"]
	if label.LabelType != normalize.LabelData {
		t.Errorf("label immediately followed by data should classify DATA, got %s", label.LabelType)
	}
}

func TestClassifyLabels_DefaultOther(t *testing.T) {
	src := "foo:\nunused:\n\tbx lr\n"
	file := pipelineThrough(t, "default-other", src)
	label := file.Functions[0].Labels["unused"]
	if label.LabelType != normalize.LabelOther {
		t.Errorf("an unreferenced label should classify OTHER, got %s", label.LabelType)
	}
}
