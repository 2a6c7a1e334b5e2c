package querybuilder_test

import (
	"reflect"
	"testing"

	querybuilder "gitlab.com/graderelay.net/internal/utils"
)

func TestBuildSelectWithConditionsAndOrder(t *testing.T) {
	query, args := querybuilder.NewQueryBuilder("public").
		Select("id", "lang", "status").
		From("submissions").
		Where("status = ?", "PENDING").
		And("lang = ?", "cpp").
		OrderBy("start_time", false).
		Build()

	want := "SELECT id, lang, status FROM public.submissions WHERE status = $1 AND lang = $2 ORDER BY start_time DESC"
	if query != want {
		t.Errorf("unexpected query\n got: %s\nwant: %s", query, want)
	}
	if !reflect.DeepEqual(args, []interface{}{"PENDING", "cpp"}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildSelectWithoutConditions(t *testing.T) {
	query, args := querybuilder.NewQueryBuilder("public").
		Select("slug", "name").
		From("languages").
		Build()

	want := "SELECT slug, name FROM public.languages"
	if query != want {
		t.Errorf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestBuildInsertMultiRowOnConflict(t *testing.T) {
	query, args := querybuilder.NewQueryBuilder("public").
		Insert("slug", "name", "version").
		Into("languages").
		Values("cpp", "C++", "11").
		Values("py2", "Python", "2.7").
		OnConflict("slug").
		DoNothing().
		Build()

	want := "INSERT INTO public.languages (slug, name, version) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (slug) DO NOTHING"
	if query != want {
		t.Errorf("unexpected query\n got: %s\nwant: %s", query, want)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(args))
	}
	if args[0] != "cpp" || args[3] != "py2" {
		t.Errorf("args out of order: %v", args)
	}
}

func TestBuildInsertWithoutConflictClause(t *testing.T) {
	query, _ := querybuilder.NewQueryBuilder("public").
		Insert("lang", "status").
		Into("submissions").
		Values("c", "PENDING").
		Build()

	want := "INSERT INTO public.submissions (lang, status) VALUES ($1, $2)"
	if query != want {
		t.Errorf("unexpected query: %s", query)
	}
}
