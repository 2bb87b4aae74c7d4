package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/favorites_api/internal/models"
)

const DefaultIndex = "customers"

// CustomerIndex keeps a searchable copy of customers; the database stays authoritative.
type CustomerIndex struct {
	ES    *elasticsearch.Client
	Index string
}

type customerDoc struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (ix *CustomerIndex) IndexCustomer(ctx context.Context, c models.Customer) error {
	body, err := json.Marshal(customerDoc{Name: c.Name, Email: c.Email})
	if err != nil {
		return err
	}
	res, err := ix.ES.Index(
		ix.Index,
		bytes.NewReader(body),
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(c.ID), 10)),
		ix.ES.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index customer %d: %w", c.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index customer %d: %s", c.ID, res.Status())
	}
	return nil
}

func (ix *CustomerIndex) RemoveCustomer(ctx context.Context, id uint) error {
	res, err := ix.ES.Delete(
		ix.Index,
		strconv.FormatUint(uint64(id), 10),
		ix.ES.Delete.WithContext(ctx),
		ix.ES.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("remove customer %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove customer %d: %s", id, res.Status())
	}
	return nil
}

// SearchCustomers returns matching customer ids by relevance.
func (ix *CustomerIndex) SearchCustomers(ctx context.Context, q string) ([]uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "email"},
				"fuzziness": "AUTO",
			},
		},
		"size":    100,
		"_source": false,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search customers: %s: %s", res.Status(), raw)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
