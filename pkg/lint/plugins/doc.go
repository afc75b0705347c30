// Package plugins provides the built-in pgmllint checks.
//
// # Plugin Groups
//
//   - Structure: block_markers, pgml_heredocs, pgml_inline, pgml_blanks,
//     pgml_brackets, block_rules, document_pairs.
//
//   - Macros and variables: macro_rules, pgml_required_macros,
//     pgml_blank_assignments, pgml_loadmacros_integrity.
//
//   - Calls and metadata: pgml_function_signatures, pgml_include_pgproblem,
//     pgml_header_tags, pgml_seed_stability, pgml_seed_variation.
//
//   - PGML content: pgml_inline_braces, pgml_underscore_emphasis,
//     pgml_inline_pgml_syntax, pgml_pgml_parse_hazards, pgml_tag_wrapper_tex,
//     pgml_style_string_quotes, pgml_pgml_wrapper_in_string, pgml_label_dot,
//     pgml_tex_color.
//
//   - HTML and MODES: pgml_html_div, pgml_html_forbidden_tags,
//     pgml_html_in_text, pgml_html_policy, pgml_html_var_passthrough,
//     pgml_span_interpolation, pgml_modes_html_escape,
//     pgml_modes_html_plain_text, pgml_modes_tex_payload,
//     pgml_modes_in_inline.
//
//   - Legacy syntax: pgml_text_blocks, pgml_br_variable, pgml_ans_rule,
//     pgml_old_answer_checkers, pgml_solution_hint_macros, pgml_ans_style.
//
//   - Text hygiene: pgml_nbsp, pgml_line_length, pgml_blob_payloads,
//     pgml_mojibake.
//
// Every plugin registers itself with lint.DefaultRegistry from init and is
// enabled by default.
package plugins
