/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fast

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesDecodedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fast_decoder_messages_total",
		Help: "Total number of top-level messages decoded",
	})
	MessagesEncodedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fast_encoder_messages_total",
		Help: "Total number of top-level messages encoded",
	})
	DecodeErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fast_decoder_errors_total",
		Help: "Total number of messages that failed to decode",
	})
	EncodeErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fast_encoder_errors_total",
		Help: "Total number of messages that failed to encode",
	})
	DecodeDurationMicroseconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fast_decoder_duration_microseconds",
		Help:    "Duration of decoding a single top-level message in microseconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	EncodeDurationMicroseconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fast_encoder_duration_microseconds",
		Help:    "Duration of encoding a single top-level message in microseconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	TemplateCompilesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fast_template_compiles_total",
		Help: "Total number of template-XML compile attempts, by outcome",
	}, []string{"outcome"})
	OperatorFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fast_operator_failures_total",
		Help: "Total number of operator-engine failures, by operator and kind",
	}, []string{"operator", "kind"})
	DictionaryResetsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fast_dictionary_resets_total",
		Help: "Total number of Decoder.Reset/Encoder.Reset calls",
	})
)

func init() {
	// Pre-register the zero value for known label combinations so dashboards
	// don't show gaps before the first occurrence, mirroring the teacher's
	// Decoder.initMetrics pattern.
	MessagesDecodedTotal.Add(0)
	MessagesEncodedTotal.Add(0)
	DecodeErrorsTotal.Add(0)
	EncodeErrorsTotal.Add(0)
	for _, outcome := range []string{"ok", "error"} {
		TemplateCompilesTotal.WithLabelValues(outcome).Add(0)
	}
	for _, op := range []string{"copy", "increment", "delta", "tail"} {
		for _, kind := range []string{"missing_previous_value", "missing_initial"} {
			OperatorFailuresTotal.WithLabelValues(op, kind).Add(0)
		}
	}
}
