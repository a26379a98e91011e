package query_test

import (
	"fmt"
	"log"

	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/query"
)

func mustParseOne(s string) *jdoc.Value {
	v, err := jdoc.ParseString(s, nil)
	if err != nil {
		log.Fatalf("Parse: %v", err)
	}
	return v
}

func Example_small() {
	root := mustParseOne(`[{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]`)
	v, err := query.Eval(root, query.Path(1, "c", "d"))
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	fmt.Println(v.JSON())
	// Output:
	// true
}

func Example_medium() {
	root := mustParseOne(`
{
  "plaintiff": "Inigo Montoya",
  "complaint": {
     "defendant": "you",
     "action": "killed",
     "target": "Individual 1"
  },
  "requestedRelief": ["die", "pay punitive damages", "pay attorney fees"],
  "relatedPersons": {
    "Individual 1": {"id": "father", "rel": "plaintiff"}
  }
}`)

	v, err := query.Eval(root, query.Object{
		"name": query.Path("plaintiff"),
		"act": query.Array{
			query.Path("complaint", "defendant"),
			query.Path("complaint", "action"),
			query.Value("my"),
			query.Path("relatedPersons", "Individual 1", "id"),
		},
		"req": query.Path("requestedRelief", 0),
	})
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	name, _ := v.Get("name")
	act, _ := v.Get("act")
	req, _ := v.Get("req")
	fmt.Printf("Hello, my name is: %s\n", name.AsString(""))
	fmt.Println(act.JSON())
	fmt.Printf("Prepare to %s\n", req.AsString(""))
	// Output:
	// Hello, my name is: Inigo Montoya
	// ["you","killed","my","father"]
	// Prepare to die
}

func Example_recur() {
	root := mustParseOne(`{"id": 1, "kids": [{"id": 2}, {"name": "x", "kids": [{"id": 3}]}]}`)
	v, err := query.Eval(root, query.Recur("id"))
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	fmt.Println(v.JSON())
	// Output:
	// [1,2,3]
}
