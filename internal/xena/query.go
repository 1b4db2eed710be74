package xena

import (
	"fmt"
	"strconv"
	"strings"
)

// Hub queries are Datalog-style function expressions evaluated by the hub.
// A call is sent as "(<fn> <arg> <arg> ...)" where each argument is
// rendered by formatArg.

const fieldCodesQuery = `(fn [dataset names]
  (query {:select [:P.name [#sql/call [:group_concat :value :order :ordering :separator #sql/call [:chr 9]] :code]]
          :from [[{:select [:field.id :field.name]
                   :from [:field]
                   :join [{:table [[[:name :varchar names]]]} [:= :field.name :T.name]]
                   :where [:= :dataset_id {:select [:id]
                                           :from [:dataset]
                                           :where [:= :name dataset]}]} :P]]
          :left-join [:code [:= :P.id :field_id]]
          :group-by [:P.id]}))`

const datasetFetchQuery = `(fn [dataset samples probes]
  (fetch [{:table dataset
           :columns probes
           :samples samples}]))`

const datasetSamplesQuery = `(fn [dataset limit]
  (map :value
    (query
      {:select [:value]
       :from [:dataset]
       :join [:field [:= :dataset.id :dataset_id]
              :code [:= :field.id :field_id]]
       :limit limit
       :where [:and
               [:= :dataset.name dataset]
               [:= :field.name "sampleID"]]})))`

const datasetGeneProbesValuesQuery = `(fn [dataset samples gene]
  (let [probemap (:probemap (car (query {:select [:probemap]
                                         :from [:dataset]
                                         :where [:= :name dataset]})))
        position (xena-query {:select ["name" "position"] :from [probemap] :where [:in :any "genes" [gene]]})
        probes (position "name")]
    [position
     (fetch [{:table dataset
              :samples samples
              :columns probes}])]))`

const datasetFieldQuery = `(fn [dataset]
  (map :name (query {:select [:field.name]
                     :from [:dataset]
                     :join [:field [:= :dataset.id :dataset_id]]
                     :where [:= :dataset.name dataset]})))`

// buildQuery renders a call of fn with the given arguments.
func buildQuery(fn string, args ...interface{}) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(fn)
	for _, arg := range args {
		b.WriteString(" ")
		b.WriteString(formatArg(arg))
	}
	b.WriteString(")")
	return b.String()
}

// formatArg renders a Go value as a hub literal.
//
// Supported values: string, []string, int, *int (nil renders as nil) and nil.
func formatArg(arg interface{}) string {
	switch v := arg.(type) {
	case nil:
		return "nil"
	case string:
		return quote(v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = quote(s)
		}
		return "[" + strings.Join(quoted, " ") + "]"
	case int:
		return strconv.Itoa(v)
	case *int:
		if v == nil {
			return "nil"
		}
		return strconv.Itoa(*v)
	default:
		panic(fmt.Sprintf("xena: unsupported query argument %T", arg))
	}
}

// quote renders a string literal, escaping backslashes and double quotes.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
