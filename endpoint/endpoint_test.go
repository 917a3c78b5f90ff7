package endpoint

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/milaboratories/clonotype-browser/graphql"
	. "github.com/milaboratories/clonotype-browser/internal/testutil"
	"github.com/milaboratories/clonotype-browser/internal/testutil/rest"
	"github.com/milaboratories/clonotype-browser/model"
	e "github.com/milaboratories/clonotype-browser/rest/endpoint/v1"
	"github.com/milaboratories/clonotype-browser/rest/models"
	"github.com/milaboratories/clonotype-browser/types"
)

const catalogJSON = `{
  "byClonotypeColumns": {
    "columns": [{
      "id": "cdr3", "label": "CDR3 aa",
      "spec": {"kind": "PColumn", "name": "cdr3", "valueType": "String",
               "axes": [{"name": "pl7.app/vdj/clonotypeKey", "type": "String"}]},
      "cells": [{"key": ["ck1"], "value": "CASSLGQ"}]
    }]
  },
  "bySampleAndClonotypeColumns": {
    "columns": [{
      "id": "abundance", "label": "Abundance",
      "spec": {"kind": "PColumn", "name": "abundance", "valueType": "Double",
               "axes": [{"name": "pl7.app/sampleId", "type": "String"},
                        {"name": "pl7.app/vdj/clonotypeKey", "type": "String"}]},
      "cells": [{"key": ["s1", "ck1"], "value": 0.25}]
    }]
  },
  "overlapTable": "overlap"
}`

func postGraphQL(routes []types.Route, query string) map[string]interface{} {
	body, err := json.Marshal(graphql.RequestBody{Query: query})
	Expect(err).ToNot(HaveOccurred())

	var post types.Route
	for _, route := range routes {
		if route.Method == http.MethodPost {
			post = route
		}
	}
	Expect(post.Handler).ToNot(BeNil())

	w := httptest.NewRecorder()
	post.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, post.Pattern, bytes.NewReader(body)))
	Expect(w.Code).To(Equal(http.StatusOK))

	var response struct {
		Data   map[string]interface{}   `json:"data"`
		Errors []map[string]interface{} `json:"errors"`
	}
	Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
	Expect(response.Errors).To(BeEmpty())
	return response.Data
}

func columnIDs(columns []model.PColumnEntry) []string {
	ids := make([]string, 0, len(columns))
	for _, c := range columns {
		ids = append(ids, c.ID)
	}
	return ids
}

var _ = Describe("BrowserEndpoint", func() {
	var (
		dir         string
		catalogPath string
	)

	BeforeEach(func() {
		var err error
		dir, err = ioutil.TempDir("", "endpoint")
		Expect(err).ToNot(HaveOccurred())
		catalogPath = filepath.Join(dir, "catalog.json")
		Expect(ioutil.WriteFile(catalogPath, []byte(catalogJSON), 0644)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	Describe("NewEndpoint()", func() {
		It("Should fail when the catalog can not be read", func() {
			cfg := NewEndpointConfigWithLogger(TestLogger()).
				WithCatalog(filepath.Join(dir, "missing.json"), false)
			_, err := cfg.NewEndpoint()
			Expect(err).To(HaveOccurred())
		})

		It("Should start without a catalog", func() {
			endpoint, err := NewEndpointConfigWithLogger(TestLogger()).NewEndpoint()
			Expect(err).ToNot(HaveOccurred())
			Expect(endpoint.App().FilterColumns()).To(BeEmpty())
		})

		It("Should use the configured default mode", func() {
			endpoint, err := NewEndpointConfigWithLogger(TestLogger()).
				WithDefaultMode(model.BySampleAndClonotype).
				WithCatalog(catalogPath, false).
				NewEndpoint()
			Expect(err).ToNot(HaveOccurred())
			Expect(endpoint.App().Mode()).To(Equal(model.BySampleAndClonotype))
			Expect(columnIDs(endpoint.App().FilterColumns())).To(Equal([]string{"abundance", "cdr3"}))
		})
	})

	Describe("RoutesREST()", func() {
		var (
			endpoint *BrowserEndpoint
			routes   []types.Route
		)

		BeforeEach(func() {
			var err error
			endpoint, err = NewEndpointConfigWithLogger(TestLogger()).
				WithCatalog(catalogPath, false).
				NewEndpoint()
			Expect(err).ToNot(HaveOccurred())
			routes = endpoint.RoutesREST(rest.Prefix)
		})

		It("Should list the filter columns of the current mode", func() {
			var response models.Columns
			code := rest.ExecuteGet(routes, e.ColumnsPath, &response)
			Expect(code).To(Equal(http.StatusOK))
			Expect(response.Mode).To(Equal(model.ByClonotype))
			Expect(columnIDs(response.Columns)).To(Equal([]string{"cdr3"}))
		})

		It("Should list the filter columns of a given mode", func() {
			var response models.Columns
			rest.ExecuteGet(routes, e.ColumnsPath+"?mode=%s", &response, model.BySampleAndClonotype)
			Expect(columnIDs(response.Columns)).To(Equal([]string{"abundance", "cdr3"}))
		})

		It("Should detect two-axis columns", func() {
			ref, _ := json.Marshal(endpoint.App().FilterColumnsFor(model.BySampleAndClonotype)[0].Ref())
			var response models.TwoAxisResult
			code := rest.ExecutePost(routes, e.TwoAxisPath,
				`{"type": "and", "filters": [{"type": "isNA", "column": `+string(ref)+`}]}`, &response)
			Expect(code).To(Equal(http.StatusOK))
			Expect(response.TwoAxis).To(BeTrue())
		})

		It("Should return 400 for a malformed filter", func() {
			var response models.ModelError
			code := rest.ExecutePost(routes, e.TwoAxisPath, `[{"type": "or"}]`, &response)
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(response.Description).To(ContainSubstring("invalid filter"))
		})

		It("Should read the values of the selected rows", func() {
			var selection models.SelectionResult
			code := rest.ExecutePut(routes, e.SelectionPath,
				`{"axesSpec": [{"name": "pl7.app/sampleId"}, {"name": "pl7.app/vdj/clonotypeKey"}], "selectedKeys": [["s1", "ck1"]]}`,
				&selection)
			Expect(code).To(Equal(http.StatusOK))
			Expect(selection.HasSelectedColumns).To(BeTrue())

			var values models.SelectionValues
			rest.ExecuteGet(routes, e.SelectionValuesPath, &values)
			Expect(values.Rows).To(HaveLen(1))
			Expect(values.Rows[0].Values).To(Equal(map[string]interface{}{"CDR3 aa": "CASSLGQ"}))
		})

		It("Should follow catalog reloads", func() {
			Expect(ioutil.WriteFile(catalogPath, []byte(`{"overlapTable": "overlap"}`), 0644)).To(Succeed())
			Expect(endpoint.Store().Reload()).To(Succeed())

			var response models.Columns
			rest.ExecuteGet(routes, e.ColumnsPath, &response)
			Expect(response.Columns).To(BeEmpty())

			var modelError models.ModelError
			code := rest.ExecuteGet(routes, e.SelectionValuesPath, &modelError)
			Expect(code).To(Equal(http.StatusConflict))
			Expect(modelError.Description).To(Equal("Platforma PFrame is not available"))
		})
	})

	Describe("RoutesGraphQL()", func() {
		It("Should serve the application state", func() {
			endpoint, err := NewEndpointConfigWithLogger(TestLogger()).
				WithCatalog(catalogPath, false).
				NewEndpoint()
			Expect(err).ToNot(HaveOccurred())

			routes, err := endpoint.RoutesGraphQL("/graphql")
			Expect(err).ToNot(HaveOccurred())
			Expect(routes).To(HaveLen(2))

			data := postGraphQL(routes, `{ filterColumns(mode: BySampleAndClonotype) { id } runAllowed }`)
			Expect(data["filterColumns"]).To(ConsistOf(
				map[string]interface{}{"id": "abundance"},
				map[string]interface{}{"id": "cdr3"},
			))
			Expect(data["runAllowed"]).To(Equal(false))

			data = postGraphQL(routes, `mutation { setAnnotationModalOpen(open: true) }`)
			Expect(data["setAnnotationModalOpen"]).To(Equal(true))
			Expect(endpoint.App().AnnotationModalOpen()).To(BeTrue())
		})
	})
})
