package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/api"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/client"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/output"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/params"
)

var searchFlags struct {
	endpoint      string
	query         string
	queryFields   []string
	countries     []string
	disasterTypes []string
	from          string
	to            string
	operator      string
	include       []string
	exclude       []string
	limit         int
	preset        string
	dryRun        bool
	dump          bool
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one search against a ReliefWeb endpoint",
	Example: `  reliefweb search --query Gaziantep --country Türkiye --from 2023-02-05T00:00:00Z \
    --disaster-type Earthquake --include body --include date --limit 100`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchFlags.endpoint, "endpoint", string(client.Reports), "endpoint to search (reports, disasters, countries, sources)")
	f.StringVar(&searchFlags.query, "query", "", "free-text query")
	f.StringSliceVar(&searchFlags.queryFields, "query-field", nil, "restrict the query to these fields")
	f.StringSliceVar(&searchFlags.countries, "country", nil, "primary country names")
	f.StringSliceVar(&searchFlags.disasterTypes, "disaster-type", nil, "disaster type names")
	f.StringVar(&searchFlags.from, "from", "", "only items created at or after this RFC 3339 instant")
	f.StringVar(&searchFlags.to, "to", "", "only items created at or before this RFC 3339 instant")
	f.StringVar(&searchFlags.operator, "operator", string(params.OperatorAnd), "operator combining the conditions")
	f.StringSliceVar(&searchFlags.include, "include", nil, "fields to include in the response")
	f.StringSliceVar(&searchFlags.exclude, "exclude", nil, "fields to exclude from the response")
	f.IntVar(&searchFlags.limit, "limit", params.DefaultLimit, "maximum number of items")
	f.StringVar(&searchFlags.preset, "preset", string(params.PresetMinimal), "presentation preset (latest, analysis, minimal)")
	f.BoolVar(&searchFlags.dryRun, "dry-run", false, "print the request URL without sending it")
	f.BoolVar(&searchFlags.dump, "dump", false, "write the raw response to the output directory")
}

// searchRequest turns the flags into a request description for endpoint.
func searchRequest(endpoint client.Endpoint) (*api.ParametersRequest, error) {
	req := &api.ParametersRequest{
		AppName: cfg.AppName,
		Limit:   searchFlags.limit,
		Preset:  searchFlags.preset,
	}
	if searchFlags.query != "" {
		req.Query = &api.QueryRequest{Value: searchFlags.query, Fields: searchFlags.queryFields}
	}

	var conditions []api.ConditionRequest
	if len(searchFlags.countries) > 0 {
		conditions = append(conditions, api.ConditionRequest{Field: params.FieldPrimaryCountry, Value: api.Strings(searchFlags.countries)})
	}
	if len(searchFlags.disasterTypes) > 0 {
		field := params.FieldDisasterType
		if endpoint == client.Disasters {
			field = params.FieldPrimaryType
		}
		conditions = append(conditions, api.ConditionRequest{Field: field, Value: api.Strings(searchFlags.disasterTypes)})
	}
	if searchFlags.from != "" || searchFlags.to != "" {
		cr := api.ConditionRequest{Field: params.FieldDateCreated}
		var err error
		if cr.From, err = parseInstant("from", searchFlags.from); err != nil {
			return nil, err
		}
		if cr.To, err = parseInstant("to", searchFlags.to); err != nil {
			return nil, err
		}
		conditions = append(conditions, cr)
	}
	if len(conditions) > 0 {
		req.Filter = &api.FilterRequest{Operator: searchFlags.operator, Conditions: conditions}
	}

	if len(searchFlags.include) > 0 || len(searchFlags.exclude) > 0 {
		req.Fields = &api.FieldsRequest{Include: searchFlags.include, Exclude: searchFlags.exclude}
	}
	return req, nil
}

func parseInstant(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &t, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	endpoint, err := client.ParseEndpoint(searchFlags.endpoint)
	if err != nil {
		return err
	}
	req, err := searchRequest(endpoint)
	if err != nil {
		return err
	}

	refs, err := loadReferences(ctx)
	if err != nil {
		return err
	}
	p, err := req.ToParameters(refs, cfg.AppName)
	if err != nil {
		return err
	}

	c := client.New(cfg.Client(), log)
	if searchFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), c.URL(endpoint, p))
		return nil
	}

	resp, err := c.Search(ctx, endpoint, p)
	if err != nil {
		return err
	}
	log.Info().
		Str("endpoint", string(endpoint)).
		Int("count", resp.Count).
		Int("totalCount", resp.TotalCount).
		Msg("Search finished")

	for _, item := range resp.Data {
		title, _ := item.Fields["title"].(string)
		if title == "" {
			title, _ = item.Fields["name"].(string)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", item.ID, title)
	}

	if searchFlags.dump {
		om, err := output.NewManager(cfg.OutputDir, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer om.Close()
		path, err := om.WriteToJSON(resp.Raw, string(endpoint))
		if err != nil {
			return err
		}
		om.Logger().Info().Str("url", c.URL(endpoint, p)).Str("file", path).Msg("Saved search response")
	}
	return nil
}
