package grammar

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/nihei9/xml2ccg/store"
)

// defaultNumOfParses is assumed when an item omits numOfParses.
const defaultNumOfParses = "1"

type TestItem struct {
	Sentence    string
	NumOfParses string
	Known       bool
}

func buildTestbed(testbed *etree.Element) []*TestItem {
	var items []*TestItem
	for _, e := range store.Iter(testbed, "item") {
		items = append(items, &TestItem{
			Sentence:    e.SelectAttrValue("string", ""),
			NumOfParses: e.SelectAttrValue("numOfParses", defaultNumOfParses),
			Known:       e.SelectAttrValue("known", "") == "true",
		})
	}
	return items
}

func (i *TestItem) format() string {
	var known string
	if i.Known {
		known = "! "
	}
	return fmt.Sprintf("  %v%v: %v;", known, i.Sentence, i.NumOfParses)
}

func testbedSection(items []*TestItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = item.format()
	}
	return "testbed {\n" + strings.Join(lines, "\n") + "\n}"
}
