// Package searchbox is the client side of nivosearch live search.
//
// It reproduces the behavior of the storefront search box: debounced
// queries, one in-flight request per box with last-request-wins ordering,
// soft open/close of cached results, hard clear, and HTML rendering of
// categories, tags and products with keyword highlighting.
//
//	client, err := searchbox.NewClient("https://shop.example.com")
//	if err != nil {
//	    return err
//	}
//	box := searchbox.NewBox(client, searchbox.ConfigFromPreset(12, presetData),
//	    searchbox.OnChange(func(s searchbox.Snapshot) { fmt.Println(s.Markup) }),
//	)
//	box.Focus()
//	box.Input("shirt")
//
// Boxes on one page share a Group so a click outside every box soft-closes
// all of them:
//
//	g := searchbox.NewGroup(header, sidebar)
//	g.ClickOutside()
package searchbox
