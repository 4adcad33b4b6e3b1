package rpc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

func TestStructRoundTripKeepsDomainShape(t *testing.T) {
	in := ChoiceReply{
		Recorded:  true,
		Label:     "Go",
		Stats:     stats.Stats{Eng: 5, Soc: 7, Crtv: 5, Wealth: 4},
		Completed: []string{"meetup"},
		Progress:  Progress{Done: 1, Total: 3},
	}
	st, err := toStruct(in)
	if err != nil {
		t.Fatalf("toStruct: %v", err)
	}
	if st.Fields["stats"].GetStructValue().Fields["soc"].GetNumberValue() != 7 {
		t.Fatalf("expected soc=7 in envelope, got %v", st.Fields["stats"])
	}

	var out ChoiceReply
	if err := fromStruct(st, &out); err != nil {
		t.Fatalf("fromStruct: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromStructNil(t *testing.T) {
	req := GetStateRequest{IncludeLog: true}
	if err := fromStruct(nil, &req); err != nil || !req.IncludeLog {
		t.Fatalf("nil envelope should leave request untouched, got %+v (%v)", req, err)
	}
}
